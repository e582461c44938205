package dtos

// Periods accepted by the scan and batch statistics endpoints.
var Periods = map[string]bool{"7d": true, "30d": true, "90d": true}

type StatusDistribution struct {
	Active   int  `json:"active"`
	Used     int  `json:"used"`
	Inactive *int `json:"inactive,omitempty"`
}

type Overview struct {
	QRCodes struct {
		Total              int                `json:"total"`
		Active             int                `json:"active"`
		Used               int                `json:"used"`
		UsagePercentage    float64            `json:"usagePercentage"`
		StatusDistribution StatusDistribution `json:"statusDistribution"`
	} `json:"qrCodes"`
	Scans struct {
		Total       int `json:"total"`
		Last24Hours int `json:"last24Hours"`
	} `json:"scans"`
	Batches struct {
		Total      int `json:"total"`
		Completed  int `json:"completed"`
		InProgress int `json:"inProgress"`
		Failed     int `json:"failed"`
	} `json:"batches"`
	Catalog struct {
		Brands   int `json:"brands"`
		Products int `json:"products"`
	} `json:"catalog"`
}

type ActivityData struct {
	QRCodeID   *int    `json:"qrCodeId,omitempty"`
	UID        string  `json:"uid,omitempty"`
	Brand      string  `json:"brand,omitempty"`
	Model      string  `json:"model,omitempty"`
	Location   string  `json:"location,omitempty"`
	IPAddress  string  `json:"ipAddress,omitempty"`
	BatchID    *int    `json:"batchId,omitempty"`
	BatchName  string  `json:"batchName,omitempty"`
	Status     string  `json:"status,omitempty"`
	TotalCodes FlexInt `json:"totalCodes,omitempty"`
}

// ActivityItem is a scan or batch event in the activity feed.
type ActivityItem struct {
	Type      string       `json:"type"`
	Timestamp string       `json:"timestamp"`
	Data      ActivityData `json:"data"`
}

type DateCount struct {
	Date  string  `json:"date"`
	Count FlexInt `json:"count"`
}

type LocationCount struct {
	GeoLocation string  `json:"geo_location"`
	Count       FlexInt `json:"count"`
}

type ScanStats struct {
	Period          string          `json:"period"`
	ScansByDate     []DateCount     `json:"scansByDate"`
	ScansByLocation []LocationCount `json:"scansByLocation"`
}

type BatchStatusCount struct {
	Date   string  `json:"date"`
	Status string  `json:"status"`
	Count  FlexInt `json:"count"`
}

type DateTotal struct {
	Date  string  `json:"date"`
	Total FlexInt `json:"total"`
}

type BatchStats struct {
	Period           string             `json:"period"`
	BatchesOverTime  []BatchStatusCount `json:"batchesOverTime"`
	CodesGenerated   []DateTotal        `json:"codesGenerated"`
	AverageBatchSize float64            `json:"averageBatchSize"`
}

type Health struct {
	Status    string `json:"status"` // healthy, degraded, error
	Timestamp string `json:"timestamp"`
	Databases struct {
		PostgreSQL string `json:"postgresql"`
		MySQL      string `json:"mysql"`
	} `json:"databases"`
	Issues struct {
		HasIssues     bool `json:"hasIssues"`
		FailedBatches int  `json:"failedBatches"`
		StuckBatches  int  `json:"stuckBatches"`
	} `json:"issues"`
}

// DashboardSummary aggregates every dashboard section. A section that
// failed to load is nil and its error is listed under Errors.
type DashboardSummary struct {
	Overview   *Overview         `json:"overview"`
	Activity   []ActivityItem    `json:"activity"`
	ScanStats  *ScanStats        `json:"scanStats"`
	BatchStats *BatchStats       `json:"batchStats"`
	Health     *Health           `json:"health"`
	Errors     map[string]string `json:"errors,omitempty"`
}
