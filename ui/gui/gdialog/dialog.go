package gdialog

import (
	"fmt"

	"github.com/sqweek/dialog"
)

// Fatal shows a blocking error box. It is used before the window exists,
// so the user sees why the game did not start.
func Fatal(title string, err error) {
	dialog.Message("%s", fmt.Sprint(err)).Title(title).Error()
}
