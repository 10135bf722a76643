package config

const (
	// DefaultWorkDir is the default working directory
	DefaultWorkDir = "."
	// DefaultSubmissionFile is the learner notebook read when none is given
	DefaultSubmissionFile = "submission.ipynb"
	// DefaultFeedbackFile receives the score and message of a run
	DefaultFeedbackFile = "feedback.json"
	// DefaultManifestFile is the assignment manifest looked up in the working directory
	DefaultManifestFile = "assignment.yaml"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "last-run.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultLogLevel is the default zap level
	DefaultLogLevel = "info"
	// DefaultProcessors is the default number of batch workers
	DefaultProcessors = 4
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for notebooks
var DefaultPathsToIgnore = []string{
	".ipynb_checkpoints",
	".git",
	"storage",
	"node_modules",
}
