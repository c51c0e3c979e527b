package ionormalize

import (
	"github.com/cheggaaa/pb/v3"
)

// progressBar creates a progress bar when progress output is on,
// otherwise it returns nil.
func (r *run) progressBar(total int, prefix string) *pb.ProgressBar {
	if !r.cfg.Normalizer.ShowProgress || total == 0 {
		return nil
	}
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}

func finishBar(bar *pb.ProgressBar) {
	if bar != nil {
		bar.Finish()
	}
}
