package rankingservice

import "errors"

var (
	// ErrChartsNotShownTogether is returned when other records are requested
	// for a chart whose group does not show its charts together.
	ErrChartsNotShownTogether = errors.New("chart group does not show charts together")

	// ErrUnboundedRecordList is returned when records are listed without a
	// chart or player.
	ErrUnboundedRecordList = errors.New("records are listed by chart or player")
)
