package model

// Profile is a business profile in the `profiles` table. ProfileID is the
// public identifier used in URLs and is unique. UserID references the account
// that owns the profile and gates every mutation.
//
// The nested Verification, Certifications and ImportExport blocks are stored
// as JSON columns rather than separate tables; they are read and written as a
// unit and never queried field-by-field.
type Profile struct {
	ID               string          `json:"id"`
	ProfileID        string          `json:"profileId"`
	UserID           string          `json:"userId"`
	BusinessName     string          `json:"businessName"`
	Logo             string          `json:"logo"`
	CoverImage       string          `json:"coverImage,omitempty"`
	IsPro            bool            `json:"isPro"`
	IsVerified       bool            `json:"isVerified"`
	Revenue          string          `json:"revenue,omitempty"`
	EmployeeCount    string          `json:"employeeCount,omitempty"`
	BusinessOverview string          `json:"businessOverview"`
	BusinessType     string          `json:"businessType"`
	Origin           string          `json:"origin"`
	Established      int             `json:"established"`
	ExportVolume     string          `json:"exportVolume,omitempty"`
	Website          string          `json:"website,omitempty"`
	Address          string          `json:"address"`
	Mobile           string          `json:"mobile,omitempty"`
	Owner            string          `json:"owner"`
	Verifications    *Verification   `json:"verifications,omitempty"`
	Certifications   []Certification `json:"certifications,omitempty"`
	ImportExport     *ImportExport   `json:"importExport,omitempty"`
}

// Verification tracks which identity checks a business has passed.
type Verification struct {
	BusinessEmail         bool `json:"businessEmail"`
	BusinessRegistration  bool `json:"businessRegistration"`
	RepresentativeProfile bool `json:"representativeProfile"`
}

// Certification is a single certificate a business holds (e.g. ISO 9001).
type Certification struct {
	Name      string `json:"name"`
	Icon      string `json:"icon,omitempty"`
	ValidFrom string `json:"validFrom,omitempty"`
	ValidTo   string `json:"validTo,omitempty"`
}

// ImportExport aggregates trade activity counters shown on a profile page.
type ImportExport struct {
	Shipments       int    `json:"shipments"`
	Suppliers       int    `json:"suppliers"`
	Volume          string `json:"volume,omitempty"`
	ExportShipments int    `json:"exportShipments"`
	ExportSuppliers int    `json:"exportSuppliers"`
	ExportVolume    string `json:"exportVolume,omitempty"`
}
