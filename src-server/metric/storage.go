package metric

import (
	"context"
	"time"

	"monthcal/src-server/utils"
)

func storage(as *utils.AppState) (time.Duration, error) {
	start := time.Now()
	if _, err := as.Storage.Exists(context.Background()); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}
