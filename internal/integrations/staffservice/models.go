package staffservice

// Provider модель мастера из справочника сотрудников
type Provider struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	IsActive bool   `json:"is_active"`
}

// ErrorResponse модель ошибки от справочника сотрудников
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
