package geocoder

// Транспортные структуры ответа HTTP-геокодера Яндекса.
// Покрывают только те поля, которые нужны для выбора кандидата.

type geocodeResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []featureMember `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

type featureMember struct {
	GeoObject struct {
		MetaDataProperty struct {
			GeocoderMetaData struct {
				Precision string `json:"precision"`
			} `json:"GeocoderMetaData"`
		} `json:"metaDataProperty"`
		Point struct {
			// "долгота широта" одной строкой через пробел
			Pos string `json:"pos"`
		} `json:"Point"`
	} `json:"GeoObject"`
}
