package models

// BookingForm holds the user-entered booking details. It is never persisted;
// it exists only to be validated and forwarded to the email capability.
type BookingForm struct {
	Name          string `json:"name"`  // Name is the patient's name.
	Email         string `json:"email"` // Email is the confirmation recipient.
	PreferredTime string `json:"time"`  // PreferredTime is the picker-constrained timestamp text.
}
