package audit

import "passvault/internal/domain/audit"

type historyInput struct {
	Page     int `query:"page" minimum:"0" doc:"Page number, 1-based"`
	PageSize int `query:"page_size" minimum:"0" maximum:"100" doc:"Page size"`
}

type historyOutput struct {
	Body HistoryResponse
}

type HistoryResponse struct {
	Entries []audit.Entry `json:"entries"`
}
