package model

// Assignment is the API-facing assignment shape. List responses omit the
// question and table metadata; detail responses carry everything.
type Assignment struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Question        string   `json:"question,omitempty"`
	Difficulty      string   `json:"difficulty"`
	Tags            []string `json:"tags"`
	Tables          []string `json:"tables,omitempty"`
	ExpectedColumns []string `json:"expectedColumns,omitempty"`
	IsActive        bool     `json:"isActive"`
	Order           int      `json:"order"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt,omitempty"`
}
