package events

const (
	StreamName   = "SCORECARD_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectFrameEvaluated(frameID string) string {
	return "perception.frame." + frameID + ".evaluated"
}
func SubjectFrameFailed(frameID string) string  { return "perception.frame." + frameID + ".failed" }
func SubjectSceneEvaluated(scene string) string { return "perception.scene." + scene + ".evaluated" }
