package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// RunOptions selects what a Run does.
type RunOptions struct {
	Kinds []Kind
	Push  bool
	Pull  bool
}

// Result summarizes a Run.
type Result struct {
	ID       uuid.UUID
	Started  time.Time
	Finished time.Time
	// Done lists "<kind> push" and "<kind> pull" for every operation that
	// succeeded.
	Done []string
}

// Run executes the selected strategies in order, push before pull. A
// failing operation ends that strategy; the run moves on to the next one
// and every failure is returned together.
func Run(ctx context.Context, env Env, opts RunOptions) (*Result, error) {
	res := &Result{ID: uuid.New(), Started: time.Now()}
	log.Infof("Run %s started: types=%v push=%v pull=%v locales=%v", res.ID, opts.Kinds, opts.Push, opts.Pull, env.Locales)

	var errs *multierror.Error
	for _, kind := range opts.Kinds {
		if err := ctx.Err(); err != nil {
			errs = multierror.Append(errs, err)
			break
		}

		s, err := New(kind, env)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}

		if opts.Push {
			if err := s.Push(ctx); err != nil {
				log.Errorf("%s push failed: %v", kind, err)
				errs = multierror.Append(errs, fmt.Errorf("%s push: %w", kind, err))
				continue
			}
			res.Done = append(res.Done, string(kind)+" push")
		}
		if opts.Pull {
			if err := s.Pull(ctx); err != nil {
				log.Errorf("%s pull failed: %v", kind, err)
				errs = multierror.Append(errs, fmt.Errorf("%s pull: %w", kind, err))
				continue
			}
			res.Done = append(res.Done, string(kind)+" pull")
		}
	}

	res.Finished = time.Now()
	err := errs.ErrorOrNil()
	if err != nil {
		log.Errorf("Run %s finished with errors in %v", res.ID, res.Finished.Sub(res.Started).Round(time.Millisecond))
	} else {
		log.Infof("Run %s finished in %v", res.ID, res.Finished.Sub(res.Started).Round(time.Millisecond))
	}
	return res, err
}
