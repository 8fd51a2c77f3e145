package proxmox

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Safe wrappers for cleanup blocks, where "the snapshot is gone" is a
// legitimate precondition rather than a failure. Both report true only on
// an observed success; a missing snapshot short-circuits to false without
// touching the remote side.

// SafeRestore rolls back to the named snapshot only if it exists. When the
// snapshot is absent it logs and returns false regardless of propagate.
// When the rollback itself fails, propagate selects between returning the
// error and swallowing it as a logged false. Cleanup callers typically pass
// propagate=false: a restore is best-effort.
func (s *SnapshotService) SafeRestore(ctx context.Context, vmID, name string, propagate bool, opts RestoreOptions) (bool, error) {
	exists, err := s.Exists(ctx, vmID, name)
	if err != nil {
		if propagate {
			return false, err
		}
		s.logger.WithError(err).WithFields(logrus.Fields{
			"vm_id":    vmID,
			"snapshot": name,
		}).Warn("Could not check snapshot existence, skipping restore")
		return false, nil
	}

	if !exists {
		s.logger.WithFields(logrus.Fields{
			"vm_id":    vmID,
			"snapshot": name,
		}).Info("Snapshot does not exist, skipping restore")
		return false, nil
	}

	if _, err := s.Restore(ctx, vmID, name, opts); err != nil {
		if propagate {
			return false, err
		}
		s.logger.WithError(err).WithFields(logrus.Fields{
			"vm_id":    vmID,
			"snapshot": name,
		}).Warn("Snapshot restore failed")
		return false, nil
	}

	return true, nil
}

// SafeDelete deletes the named snapshot only if it exists. Cleanup callers
// typically pass propagate=true: a snapshot left behind is a resource leak
// worth surfacing.
func (s *SnapshotService) SafeDelete(ctx context.Context, vmID, name string, propagate bool) (bool, error) {
	exists, err := s.Exists(ctx, vmID, name)
	if err != nil {
		if propagate {
			return false, err
		}
		s.logger.WithError(err).WithFields(logrus.Fields{
			"vm_id":    vmID,
			"snapshot": name,
		}).Warn("Could not check snapshot existence, skipping delete")
		return false, nil
	}

	if !exists {
		s.logger.WithFields(logrus.Fields{
			"vm_id":    vmID,
			"snapshot": name,
		}).Info("Snapshot does not exist, skipping delete")
		return false, nil
	}

	if _, err := s.Delete(ctx, vmID, name); err != nil {
		if propagate {
			return false, err
		}
		s.logger.WithError(err).WithFields(logrus.Fields{
			"vm_id":    vmID,
			"snapshot": name,
		}).Warn("Snapshot delete failed")
		return false, nil
	}

	return true, nil
}
