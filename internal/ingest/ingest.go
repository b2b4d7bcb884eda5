package ingest

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nxadm/tail"
)

// Options select how a backend log file is followed.
type Options struct {
	Path string
	// FromStart replays the existing content before following; otherwise only new lines are delivered.
	FromStart bool
	// Poll uses stat polling instead of inotify, which also works on network mounts.
	Poll bool
}

type Line struct {
	Text   string
	Source string
	When   time.Time
}

// Follow tails a log file until ctx is done. Both channels are closed when it stops.
func Follow(ctx context.Context, opt Options) (<-chan Line, <-chan error) {
	out := make(chan Line, 256)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)
		if strings.TrimSpace(opt.Path) == "" {
			errs <- errors.New("ingest: empty path")
			return
		}
		readFromTail(ctx, opt, out, errs)
	}()

	return out, errs
}

func readFromTail(ctx context.Context, opt Options, out chan<- Line, errs chan<- error) {
	cfg := tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
		Poll:      opt.Poll,
	}
	if !opt.FromStart {
		cfg.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}
	t, err := tail.TailFile(opt.Path, cfg)
	if err != nil {
		errs <- err
		return
	}
	defer t.Cleanup()
	for {
		select {
		case <-ctx.Done():
			_ = t.Stop()
			return
		case l, ok := <-t.Lines:
			if !ok {
				return
			}
			if l.Err != nil {
				select {
				case errs <- l.Err:
				default:
				}
				continue
			}
			select {
			case out <- Line{Text: l.Text, Source: opt.Path, When: time.Now()}:
			case <-ctx.Done():
				_ = t.Stop()
				return
			}
		}
	}
}

// TailText returns at most the last maxBytes of a file, starting at a line
// boundary when the file was cut. A missing file yields "".
func TailText(path string, maxBytes int64) (string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer f.Close()

	var start int64
	if maxBytes > 0 {
		if st, err := f.Stat(); err == nil && st.Size() > maxBytes {
			start = st.Size() - maxBytes
		}
	}
	if start == 0 {
		b, err := io.ReadAll(f)
		return string(b), err
	}
	if _, err := f.Seek(start, io.SeekStart); err != nil {
		return "", err
	}
	br := bufio.NewReader(f)
	// drop partial first line
	if _, err := br.ReadString('\n'); err != nil && err != io.EOF {
		return "", err
	}
	b, err := io.ReadAll(br)
	return string(b), err
}
