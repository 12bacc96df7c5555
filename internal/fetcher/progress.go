package fetcher

import (
	"github.com/sirupsen/logrus"
)

// NewLogProgress returns a ProgressFunc logging through logger. With a known
// total it logs every 10%; otherwise it logs every 16 chunks.
func NewLogProgress(logger logrus.FieldLogger) ProgressFunc {
	lastStep := int64(-1)

	return func(done, total int64) {
		if total > 0 {
			percent := done * 100 / total
			if percent > 100 {
				percent = 100
			}
			step := percent / 10
			if step == lastStep {
				return
			}
			lastStep = step
			logger.WithFields(logrus.Fields{
				"done":  done,
				"total": total,
			}).Infof("Downloaded %d%%", percent)
			return
		}

		step := done / (ChunkSize * 16)
		if step == lastStep {
			return
		}
		lastStep = step
		logger.WithField("done", done).Infof("Downloaded %.1f MiB", float64(done)/(1024*1024))
	}
}
