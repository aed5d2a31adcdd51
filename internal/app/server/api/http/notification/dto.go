package notification

import (
	"time"

	"passvault/internal/domain/notification"
)

type listInput struct {
	Page     int `query:"page" minimum:"0" doc:"Page number, 1-based"`
	PageSize int `query:"page_size" minimum:"0" maximum:"100" doc:"Page size"`
}

type listOutput struct {
	Body ListResponse
}

type ListResponse struct {
	Notifications []notification.Notification `json:"notifications"`
}

type unreadOutput struct {
	Body ListResponse
}

type countOutput struct {
	Body CountResponse
}

type CountResponse struct {
	Count int `json:"count"`
}

type markReadInput struct {
	ID string `path:"id" doc:"Notification id"`
}

type statusOutput struct {
	Body StatusResponse
}

type StatusResponse struct {
	Status string `json:"status"`
}

type statsInput struct {
	From time.Time `query:"from" doc:"Window start, RFC 3339"`
	To   time.Time `query:"to" doc:"Window end, RFC 3339"`
}

type statsOutput struct {
	Body StatsResponse
}

type StatsResponse struct {
	Counts map[string]int `json:"counts"`
}

type alertsInput struct {
	Severity string `query:"severity" enum:",Info,Warning,Critical,Emergency" doc:"Optional severity filter"`
}

type alertsOutput struct {
	Body AlertsResponse
}

type AlertsResponse struct {
	Alerts []notification.SecurityAlert `json:"alerts"`
}

type resolveAlertInput struct {
	ID string `path:"id" doc:"Alert id"`
}
