// Package logger provides leveled logging for rsakit commands.
//
// Two flags control verbosity:
//
//   - --verbose: info and warning messages
//   - --debug: everything, including debug details and errors
//
// Without flags only WarnfAlways output is shown. Command errors reach the
// user through cobra, not the logger.
//
//	Logger.Infof()           // --verbose or --debug
//	Logger.Debugf()          // --debug
//	Logger.Warnf()           // --verbose or --debug
//	Logger.WarnfAlways()     // always
//	Logger.Errorf()          // --debug
//	Logger.ErrorfAndReturn() // logs like Errorf, returns the error
//
// Commands build a logger in their PersistentPreRun:
//
//	log := logger.Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Encrypting %d files", count)
package logger
