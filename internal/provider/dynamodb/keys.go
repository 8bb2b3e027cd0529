package dynamodb

import (
	"time"

	"github.com/acadportal/slaclock/pkg/types"
)

// PK/SK prefix constants.
const (
	prefixCalendar = "CAL#"
	prefixDate     = "DATE#"
	prefixProposal = "PROPOSAL#"

	skConfig = "CONFIG"
)

func calendarPK(name string) string { return prefixCalendar + name }

func dateSK(day time.Time) string { return prefixDate + day.Format(types.DateFormat) }

func proposalPK(id string) string { return prefixProposal + id }
