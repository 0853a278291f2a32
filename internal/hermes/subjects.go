package hermes

const subjectPrefix = "oovl.session."

func SubjectSessionStarted(sessionID string) string  { return subjectPrefix + sessionID + ".started" }
func SubjectSessionCompared(sessionID string) string { return subjectPrefix + sessionID + ".compared" }
func SubjectSessionEnded(sessionID string) string    { return subjectPrefix + sessionID + ".ended" }
