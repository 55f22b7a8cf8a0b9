package remote

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// defaultSSHUser is used when the URL does not name one
const defaultSSHUser = "git"

// AuthOptions configures credential lookup for remotes
type AuthOptions struct {
	// SSHAgent uses the running ssh-agent for ssh remotes
	SSHAgent bool

	// SSHKey is a private key file for ssh remotes; takes precedence over
	// the agent
	SSHKey string

	// SSHKeyPassphrase decrypts SSHKey
	SSHKeyPassphrase string

	// HTTPSTokenEnv names the environment variable holding a token for
	// https remotes
	HTTPSTokenEnv string

	// Getenv defaults to os.Getenv
	Getenv func(string) string
}

// Auth resolves credentials per remote URL scheme. Local paths and file://
// URLs need none.
type Auth struct {
	opts AuthOptions
}

// NewAuth creates an auth provider
func NewAuth(opts AuthOptions) *Auth {
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	return &Auth{opts: opts}
}

// Method returns the authentication method for the given remote URL.
// Returns nil when the URL needs no credentials or none are configured.
//
//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (a *Auth) Method(remoteURL string) (transport.AuthMethod, error) {
	scheme, user, err := parseRemoteURL(remoteURL)
	if err != nil {
		return nil, err
	}

	switch scheme {
	case "ssh":
		return a.sshMethod(user)
	case "https", "http":
		return a.httpsMethod(), nil
	default:
		return nil, nil
	}
}

//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (a *Auth) sshMethod(user string) (transport.AuthMethod, error) {
	if user == "" {
		user = defaultSSHUser
	}

	if a.opts.SSHKey != "" {
		if _, err := os.Stat(a.opts.SSHKey); err != nil {
			return nil, fmt.Errorf("SSH private key file does not exist: %s", a.opts.SSHKey)
		}
		auth, err := ssh.NewPublicKeysFromFile(user, a.opts.SSHKey, a.opts.SSHKeyPassphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to load SSH key from file: %w", err)
		}
		return auth, nil
	}

	if a.opts.SSHAgent {
		auth, err := ssh.NewSSHAgentAuth(user)
		if err != nil {
			return nil, fmt.Errorf("failed to create SSH agent auth: %w", err)
		}
		return auth, nil
	}

	return nil, nil
}

//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (a *Auth) httpsMethod() transport.AuthMethod {
	if a.opts.HTTPSTokenEnv == "" {
		return nil
	}
	token := a.opts.Getenv(a.opts.HTTPSTokenEnv)
	if token == "" {
		return nil
	}
	// Git hosts accept the token as password with any non-empty username
	return &http.BasicAuth{Username: "token", Password: token}
}

// parseRemoteURL classifies a remote URL. scp-like "user@host:path" is ssh;
// anything without a scheme is a local path ("file").
func parseRemoteURL(remoteURL string) (scheme, user string, err error) {
	if remoteURL == "" {
		return "", "", fmt.Errorf("remote URL cannot be empty")
	}

	if !strings.Contains(remoteURL, "://") {
		if at := strings.Index(remoteURL, "@"); at > 0 {
			rest := remoteURL[at+1:]
			if colon := strings.Index(rest, ":"); colon > 0 && !strings.ContainsAny(rest[:colon], `/\`) {
				return "ssh", remoteURL[:at], nil
			}
		}
		return "file", "", nil
	}

	parsed, err := url.Parse(remoteURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid URL: %w", err)
	}

	scheme = parsed.Scheme
	if scheme == "git+ssh" || scheme == "ssh+git" {
		scheme = "ssh"
	}
	if parsed.User != nil {
		user = parsed.User.Username()
	}
	return scheme, user, nil
}
