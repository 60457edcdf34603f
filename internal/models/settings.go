package models

// Settings is the single system-settings document (settings/system). Values
// here override the config defaults for operators who tune them at runtime;
// reads fall back to config when the document is absent.
type Settings struct {
	DefaultInterestRate float64 `firestore:"defaultInterestRate" json:"defaultInterestRate"`
	DefaultPageSize     int     `firestore:"defaultPageSize" json:"defaultPageSize"`
	BatchLimit          int     `firestore:"batchLimit" json:"batchLimit"`
}
