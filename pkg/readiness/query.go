package readiness

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Ramsey-B/sapling/pkg/criteria"
	"github.com/Ramsey-B/sapling/pkg/models"
	"github.com/Ramsey-B/sapling/pkg/trl"
)

type Mode string

const (
	ModeByDate Mode = "date"
	ModeByTRL  Mode = "trl"
)

// Query asks either which level each entity had reached by Date, or when
// each entity reaches Level.
type Query struct {
	Mode    Mode             `json:"mode" validate:"required,oneof=date trl"`
	Filters criteria.Filters `json:"filters"`
	Date    string           `json:"date,omitempty"`
	Level   string           `json:"level,omitempty"`
}

// parsed is a validated Query.
type parsed struct {
	mode  Mode
	at    time.Time
	level trl.Level
}

// Validate rejects the query as a whole with a 400 when its mode input is
// missing or malformed.
func (q Query) Validate() error {
	_, err := q.parse()
	return err
}

func (q Query) parse() (parsed, error) {
	if _, err := models.Validate(q); err != nil {
		return parsed{}, err
	}

	switch q.Mode {
	case ModeByDate:
		if strings.TrimSpace(q.Date) == "" {
			return parsed{}, httperror.NewHTTPError(http.StatusBadRequest, trl.ErrMissingQueryDate.Error())
		}
		at, err := trl.ParseDate(q.Date)
		if err != nil {
			return parsed{}, httperror.NewHTTPErrorf(http.StatusBadRequest, "query date %q is not a valid YYYY-MM-DD date", q.Date)
		}
		return parsed{mode: q.Mode, at: at}, nil
	case ModeByTRL:
		level, err := trl.ParseLevel(q.Level)
		if err != nil {
			return parsed{}, httperror.WrapError(http.StatusBadRequest, err)
		}
		return parsed{mode: q.Mode, level: level}, nil
	}
	return parsed{}, httperror.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown query mode %q", q.Mode))
}
