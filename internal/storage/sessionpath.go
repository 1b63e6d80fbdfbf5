package storage

import (
	"fmt"
	"time"
)

// SessionPath formats a recording directory as
// {base}/{category}/{YYYY-MM-DD}/{YYYY-MM-DD}_{HH-MM-SS}_{mode}, per §4.J.
// Unlike the teacher's configurable %-token path format, this layout is
// fixed, so a plain time.Format is enough.
func SessionPath(base, category, mode string, at time.Time) string {
	day := at.Format("2006-01-02")
	stamp := at.Format("2006-01-02_15-04-05")
	return fmt.Sprintf("%s/%s/%s/%s_%s", base, category, day, stamp, mode)
}
