package api

import (
	"strconv"
	"time"

	"github.com/octabyte/medtrack-gommon/enums"
	"github.com/octabyte/medtrack-gommon/utils"
)

// ListParams are the filters every paginated list accepts. Zero values are
// left out of the query string.
type ListParams struct {
	Page      int
	Search    string
	Status    enums.AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
}

func (p ListParams) page() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

// Query renders the parameters. page is always sent.
func (p ListParams) Query() map[string]string {
	query := map[string]string{"page": strconv.Itoa(p.page())}
	if p.Search != "" {
		query["search"] = p.Search
	}
	if p.Status != "" {
		query["status"] = string(p.Status)
	}
	if date := utils.DateParam(p.StartDate); date != "" {
		query["startDate"] = date
	}
	if date := utils.DateParam(p.EndDate); date != "" {
		query["endDate"] = date
	}
	return query
}
