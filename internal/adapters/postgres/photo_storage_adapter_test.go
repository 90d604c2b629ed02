package postgres

import (
	"errors"
	"fmt"
	"testing"

	"catalog-service/internal/core/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapPhotoWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "main photo index violation is a photo conflict",
			err:  &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "photos_one_main_per_listing"},
			want: domain.ErrPhotoConflict,
		},
		{
			name: "foreign key violation means the listing is gone",
			err:  &pgconn.PgError{Code: pgForeignKeyViolation},
			want: domain.ErrListingNotFound,
		},
		{
			name: "wrapped driver error is still mapped",
			err:  fmt.Errorf("failed to insert photo: %w", &pgconn.PgError{Code: pgUniqueViolation}),
			want: domain.ErrPhotoConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapPhotoWriteError(tt.err); !errors.Is(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("unknown error passes through", func(t *testing.T) {
		plain := errors.New("connection reset")
		if got := mapPhotoWriteError(plain); got != plain {
			t.Errorf("got %v, want the original error", got)
		}
	})
}

func TestMapWriteError(t *testing.T) {
	if got := mapWriteError(&pgconn.PgError{Code: pgUniqueViolation}); !errors.Is(got, domain.ErrSlugTaken) {
		t.Errorf("unique violation on listings: got %v, want ErrSlugTaken", got)
	}
	if got := mapWriteError(&pgconn.PgError{Code: pgForeignKeyViolation}); !errors.Is(got, domain.ErrInvalidReference) {
		t.Errorf("fk violation on listings: got %v, want ErrInvalidReference", got)
	}
}
