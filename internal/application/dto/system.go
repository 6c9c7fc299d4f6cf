package dto

type GetHealthCommand struct{}

type HealthOutput struct {
	Status    string `json:"status"`
	Store     string `json:"store,omitempty"`
	StoreCode string `json:"store_code,omitempty"`
}

type GetOpenAPISpecQuery struct{}

type OpenAPISpecOutput struct {
	Content     []byte
	ContentType string
}
