package entry

import (
	"context"
	"fmt"
	"slices"

	"github.com/jmkivinen/trialreg/internal/domain"
)

// MarkParticipants upgrades the given classes to the target state, and the
// event itself once every class has reached it. States never downgrade, so
// re-sending a picked notice to an invited class leaves it invited. The
// write is skipped when nothing moved.
func (s *Service) MarkParticipants(ctx context.Context, event *domain.Event, state string, classes []string) error {
	changed := false

	for i := range event.Classes {
		cls := &event.Classes[i]
		if !slices.Contains(classes, cls.Class) {
			continue
		}
		if next := domain.UpgradeClassState(cls.State, state); next != cls.State {
			cls.State = next
			changed = true
		}
	}

	allReached := true
	for i := range event.Classes {
		if domain.UpgradeClassState(event.Classes[i].State, state) != event.Classes[i].State {
			allReached = false
			break
		}
	}
	if allReached {
		if next := domain.UpgradeEventState(event.State, state); next != event.State {
			event.State = next
			changed = true
		}
	}

	if !changed {
		return nil
	}
	if err := s.events.UpdateState(ctx, event); err != nil {
		return fmt.Errorf("update event state: %w", err)
	}
	return nil
}
