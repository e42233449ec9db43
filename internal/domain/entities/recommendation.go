package entities

// Doctor is a practitioner returned by the backend recommendation service
type Doctor struct {
	ID            string `json:"id"`
	UserID        string `json:"userId,omitempty"`
	Name          string `json:"name"`
	Specialty     string `json:"specialty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
	Structure     string `json:"structure,omitempty"`
	Location      string `json:"location,omitempty"`
	DoctorPhone   string `json:"doctorPhone,omitempty"`
	Available     bool   `json:"available"`
}

// HealthCenter is a facility returned by the backend recommendation service
type HealthCenter struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type,omitempty"`
	Address   string   `json:"address,omitempty"`
	City      string   `json:"city,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	// Distance is in kilometres from the caller, when coordinates were sent.
	Distance *float64 `json:"distance,omitempty"`
}
