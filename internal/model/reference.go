package model

// ReferenceDocument is one entry of the reference-contract vector collection.
type ReferenceDocument struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Embedding []float32         `json:"-"`
}

// SimilarDocument is a reference document returned by a similarity query.
type SimilarDocument struct {
	ID         string            `json:"id"`
	Content    string            `json:"content"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Similarity float32           `json:"similarity"`
}

// ReferenceContract is one row of the reference contract dataset.
type ReferenceContract struct {
	ID             string `json:"id"`
	DocumentName   string `json:"document_name"`
	EffectiveDate  string `json:"effective_date"`
	Category       string `json:"category"`
	Parties        string `json:"parties"`
	AgreementDate  string `json:"agreement_date"`
	ExpirationDate string `json:"expiration_date"`
	RenewalTerm    string `json:"renewal_term"`
	GoverningLaw   string `json:"governing_law"`
	Exclusivity    string `json:"exclusivity"`
	Contract       string `json:"contract"`
}
