// ReportsData is a paginated response payload for the report archive.
package dto

type ReportsData struct {
	Reports     []ReportInfo `json:"reports"`
	Cameras     []string     `json:"cameras"`
	Length      int          `json:"length"`
	TotalPages  int          `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
	Limit       int          `json:"pageSize"`
}
