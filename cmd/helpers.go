package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	kerrors "github.com/MohiZzine/rsa-encryption-app/internal/errors"
	"github.com/MohiZzine/rsa-encryption-app/internal/rsacrypt"
	"github.com/MohiZzine/rsa-encryption-app/internal/ui"
	"github.com/MohiZzine/rsa-encryption-app/internal/utils"
	"github.com/MohiZzine/rsa-encryption-app/internal/workflows"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// startSpinner creates and starts a spinner with the given message when not
// in verbose or debug mode. The returned cleanup prints FinalMSG, so
// messages need no trailing newline.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		if utils.IsStdoutTerminal() {
			s.Start()
		}
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// commandContext returns a context canceled on interrupt, so long chunk
// loops stop cleanly on Ctrl-C.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt)
}

func openEnv() (*workflows.Env, error) {
	env, err := workflows.OpenEnv(Logger)
	if err != nil {
		return nil, Logger.ErrorfAndReturn("failed to open rsakit data: %w", err)
	}
	return env, nil
}

// keyFlags are the ways a command can be told which key to use.
type keyFlags struct {
	ref            string
	publicKeyFile  string
	privateKeyFile string
	privateStdin   bool
}

func (k *keyFlags) addPublic(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&k.ref, "key", "k", "", "stored key ID, ID prefix, or label")
	cmd.Flags().StringVar(&k.publicKeyFile, "public-key", "", "path to a PEM public key")
	cmd.MarkFlagsMutuallyExclusive("key", "public-key")
}

func (k *keyFlags) addPrivate(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&k.ref, "key", "k", "", "stored key ID, ID prefix, or label")
	cmd.Flags().StringVar(&k.privateKeyFile, "private-key", "", "path to a private key (PKCS#1, PKCS#8 or OpenSSH)")
	cmd.Flags().BoolVar(&k.privateStdin, "private-key-stdin", false, "read the private key from stdin")
	cmd.MarkFlagsMutuallyExclusive("key", "private-key", "private-key-stdin")
}

func (k *keyFlags) publicKeyPEM() (string, error) {
	if k.publicKeyFile == "" {
		return "", nil
	}
	return readKeyFile(k.publicKeyFile)
}

// privateKey returns the private key text and, for protected OpenSSH
// keys, the passphrase read from the terminal.
func (k *keyFlags) privateKey(cmd *cobra.Command) (string, []byte, error) {
	var text string
	switch {
	case k.privateStdin:
		data, err := utils.ReadInput(cmd.InOrStdin(), "pipe your private key to this command")
		if err != nil {
			return "", nil, err
		}
		text = string(data)
	case k.privateKeyFile != "":
		data, err := readKeyFile(k.privateKeyFile)
		if err != nil {
			return "", nil, err
		}
		text = data
	default:
		return "", nil, nil
	}

	if !rsacrypt.IsPassphraseProtected([]byte(text)) {
		return text, nil, nil
	}
	passphrase, err := utils.ReadPassphrase("Enter passphrase for private key: ")
	if err != nil {
		return "", nil, err
	}
	return text, passphrase, nil
}

func readKeyFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if info, statErr := os.Stat(path); statErr == nil && info.Mode().Perm()&0077 != 0 &&
		strings.Contains(string(data), "PRIVATE KEY") {
		Logger.WarnfAlways("Private key file %s has overly permissive permissions (%o), consider running 'chmod 600 %s'",
			path, info.Mode().Perm(), path)
	}
	return string(data), nil
}

// readMessage returns the --message value, or stdin when it is empty.
func readMessage(cmd *cobra.Command, message string) ([]byte, error) {
	if cmd.Flags().Changed("message") {
		return []byte(message), nil
	}
	return utils.ReadInput(cmd.InOrStdin(), "pass --message or pipe the message to this command")
}

// describeError turns a workflow error into a one-line explanation.
func describeError(err error) string {
	if hint := errorHint(err); hint != "" {
		return hint
	}
	return err.Error()
}

// explain prefixes err with a hint when one is known.
func explain(err error) error {
	if hint := errorHint(err); hint != "" {
		return fmt.Errorf("%s: %w", hint, err)
	}
	return err
}

func errorHint(err error) string {
	switch {
	case kerrors.Is(err, kerrors.ErrNoKeySpecified):
		return "No key given. Use " + ui.Flag.Sprint("--key") + " or a key file flag"
	case kerrors.Is(err, kerrors.ErrKeyNotFound):
		return "No stored key matches. Run " + ui.Code.Sprint("rsakit keys list") + " to see your keys"
	case kerrors.Is(err, kerrors.ErrAmbiguousKey):
		return "That reference matches more than one key. Use a longer ID prefix"
	case kerrors.Is(err, kerrors.ErrMalformedEnvelope):
		return "The ciphertext is not a valid envelope"
	case kerrors.Is(err, kerrors.ErrDecryption):
		return "Decryption failed. Is this the right private key?"
	case kerrors.Is(err, kerrors.ErrNoFilesFound):
		return "No files matched"
	default:
		return ""
	}
}
