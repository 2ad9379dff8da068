package models

type StatusCount struct {
	Status     string  `json:"status"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type DiagnosisCount struct {
	Diagnosis  string  `json:"diagnosis"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type PeriodCount struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

type Analytics struct {
	Appointments struct {
		StatusBreakdown struct {
			Total     int           `json:"total"`
			Breakdown []StatusCount `json:"breakdown"`
		} `json:"statusBreakdown"`
		AveragePerDay struct {
			Average float64 `json:"average"`
		} `json:"averagePerDay"`
		Last7Days []PeriodCount `json:"last7Days"`
	} `json:"appointments"`
	Diagnoses struct {
		Distribution []DiagnosisCount `json:"distribution"`
	} `json:"diagnoses"`
}
