package models

// SignalFeatures is a snapshot of signal-quality statistics over a sample window.
type SignalFeatures struct {
	Mean               float64 `json:"mean"`
	Variance           float64 `json:"variance"`
	StationarityPassed bool    `json:"stationarity_passed"`
	HjorthActivity     float64 `json:"hjorth_activity"`
	HjorthMobility     float64 `json:"hjorth_mobility"`
	HjorthComplexity   float64 `json:"hjorth_complexity"`
}
