package lifecycle

// DeleteObject implements the "apply deletes" phase of spec §5:
// cancels every pending request against objectID (emitted by the
// caller in the delete-cancel output stream, spec §7 "never two" of
// the three output streams), frees every replica cell, and removes
// the object record.
func (e *Executor) DeleteObject(objectID int) (cancelledReqs []int) {
	obj := e.Table.Get(objectID)
	if obj == nil {
		return nil
	}
	for _, pr := range obj.PendingByArrival() {
		e.Delete(obj, pr.ReqID)
		cancelledReqs = append(cancelledReqs, pr.ReqID)
	}
	for _, rep := range obj.Replicas {
		d := e.Disks[rep.Disk]
		for _, p := range rep.Positions[1:] {
			d.FreeCell(p)
		}
	}
	e.Table.Delete(objectID)
	return cancelledReqs
}
