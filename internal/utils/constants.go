package utils

const (
	// ApplicationName names the binary and its configuration directory.
	ApplicationName = "lstree"
	// ConfigFileName is the file read from the working and global configuration directories.
	ConfigFileName = "config.yaml"
	// GlobalConfigDirectoryName is created under the user's home directory.
	GlobalConfigDirectoryName = "." + ApplicationName
)

const (
	// LoggerInitializationFailedMessageFormat reports a logger that could not be built.
	LoggerInitializationFailedMessageFormat = "initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes the error that ended a run.
	ApplicationExecutionFailedMessage = ApplicationName + " failed"
)
