// Package workflows provides high-level orchestration for rsakit commands.
//
// Workflows coordinate the key store, the crypto core, the payload codec
// and the history to implement complete user-facing features. Each
// workflow handles a single command's business logic, independent of CLI
// concerns like flag parsing, spinners, and output formatting.
//
// The cmd/ package stays a thin layer that:
//   - Parses command-line flags and arguments
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// # Environment
//
// Every workflow receives an *Env holding the config, key store, history
// recorder, cipher and logger. OpenEnv builds one from the user's config;
// tests build one with NewEnv and an in-memory history.
//
// # Available Workflows
//
//   - GenerateKey, ImportKey, ListKeys, ShowKey, DeleteKey, ValidateKey
//   - EncryptMessage, DecryptMessage
//   - EncryptFiles, DecryptFiles
//   - SignMessage, VerifyMessage
//   - History
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching:
//
//	result, err := workflows.DecryptMessage(ctx, env, opts)
//	if errors.Is(err, kerrors.ErrDecryption) {
//	    // wrong key or corrupted envelope
//	}
//
// # History
//
// Operations that touch key material record a history entry whether they
// succeed or fail. Recording failures are logged, never returned.
package workflows
