package model

// ChangeRequest identifies the unit of work being validated by the pipeline.
// Number is the pull request number in the external review system; it is nil
// when the pipeline runs against a direct branch push (a trunk build), in
// which case no pending review exists and no approval lookup is meaningful.
type ChangeRequest struct {
	Repo   string // "owner/repo"
	Number *int
}

// IsTrunkBuild reports whether the change is a trunk/branch build rather
// than a pending review.
func (c ChangeRequest) IsTrunkBuild() bool {
	return c.Number == nil
}
