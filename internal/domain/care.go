package domain

// Doctor is an entry in the hardcoded doctor directory
type Doctor struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Specialty       string   `json:"specialty"`
	Rating          float64  `json:"rating"`
	Experience      int      `json:"experience"`
	Location        string   `json:"location"`
	Distance        string   `json:"distance"`
	Available       bool     `json:"available"`
	NextAvailable   string   `json:"next_available"`
	ConsultationFee int      `json:"consultation_fee"`
	Languages       []string `json:"languages"`
	Education       string   `json:"education"`
	Verified        bool     `json:"verified"`
}

// EmergencyContact is a national helpline number shown on the emergency page
type EmergencyContact struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	Type   string `json:"type"`
}

// Hospital is a nearby facility shown on the emergency page
type Hospital struct {
	Name      string `json:"name"`
	Distance  string `json:"distance"`
	Phone     string `json:"phone"`
	Emergency bool   `json:"emergency"`
}

// EmergencyReport is a submitted SOS report
type EmergencyReport struct {
	ID            string    `json:"id"`
	EmergencyType string    `json:"emergency_type"`
	Description   string    `json:"description,omitempty"`
	PatientCount  int       `json:"patient_count"`
	Location      *Location `json:"location,omitempty"`
	ManualAddress string    `json:"manual_address,omitempty"`
}
