package model

type DoctorType string

const (
	DoctorTypeGovernment DoctorType = "government"
	DoctorTypePrivate    DoctorType = "private"
)

// Doctor is a clinician identity record. The public DoctorID is unique and
// its syntax determines the doctor type: government registration numbers look
// like KL/12345/2021, private-practice codes like PVTHPTL-0341.
type Doctor struct {
	Base
	Name               string     `db:"name" json:"name"`
	HospitalName       string     `db:"hospital_name" json:"hospital_name"`
	DoctorType         DoctorType `db:"doctor_type" json:"doctor_type"`
	DoctorID           string     `db:"doctor_id" json:"doctor_id"`
	RegistrationNumber *string    `db:"registration_number" json:"registration_number,omitempty"`
	AadhaarNumber      *string    `db:"aadhaar_number" json:"aadhaar_number,omitempty"`
	MobileNumber       *string    `db:"mobile_number" json:"mobile_number,omitempty"`
}

// DoctorLoginRequest carries the submitted login token. Name and hospital are
// only consulted on a government doctor's first login, which doubles as
// registration.
type DoctorLoginRequest struct {
	DoctorID     string `json:"doctor_id" binding:"required"`
	Name         string `json:"name"`
	HospitalName string `json:"hospital_name"`
}

type RegisterDoctorRequest struct {
	Name          string `json:"name" binding:"required"`
	HospitalName  string `json:"hospital_name" binding:"required"`
	MobileNumber  string `json:"mobile_number" binding:"required"`
	AadhaarNumber string `json:"aadhaar_number" binding:"required,aadhaar"`
}

type DoctorLoginResponse struct {
	Doctor *Doctor `json:"doctor"`
	Token  string  `json:"token"`
}
