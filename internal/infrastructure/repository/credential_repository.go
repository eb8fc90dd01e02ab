package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sangkips/shopfront-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/shopfront-pos/internal/domain/repository"
	"github.com/sangkips/shopfront-pos/pkg/apperror"
	"github.com/sangkips/shopfront-pos/pkg/fileutil"
)

const (
	keyAccessToken  = "NE_ACCESS_TOKEN"
	keyRefreshToken = "NE_REFRESH_TOKEN"
	keyClientID     = "NE_CLIENT_ID"
	keyClientSecret = "NE_CLIENT_SECRET"
)

// Older token files written by the upload tool used bare names.
var (
	accessAliases  = []string{keyAccessToken, "ACCESS_TOKEN", "access_token"}
	refreshAliases = []string{keyRefreshToken, "REFRESH_TOKEN", "refresh_token"}
)

type envCredentialRepository struct {
	path string

	mu         sync.Mutex
	accessKey  string
	refreshKey string
}

// NewEnvCredentialRepository stores vendor tokens in a KEY=VALUE file.
// Saving rewrites only the two token lines and keeps everything else.
func NewEnvCredentialRepository(path string) domainRepo.CredentialRepository {
	return &envCredentialRepository{
		path:       path,
		accessKey:  keyAccessToken,
		refreshKey: keyRefreshToken,
	}
}

func (r *envCredentialRepository) Load(_ context.Context) (*entity.Credentials, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := godotenv.Read(r.path)
	if err != nil {
		return nil, apperror.NewCredentialError("Cannot read credential file "+r.path, err)
	}

	creds := &entity.Credentials{
		ClientID:     values[keyClientID],
		ClientSecret: values[keyClientSecret],
	}
	creds.AccessToken, r.accessKey = firstOf(values, accessAliases)
	creds.RefreshToken, r.refreshKey = firstOf(values, refreshAliases)

	var missing []string
	if creds.AccessToken == "" {
		missing = append(missing, keyAccessToken)
	}
	if creds.RefreshToken == "" {
		missing = append(missing, keyRefreshToken)
	}
	if creds.ClientID == "" {
		missing = append(missing, keyClientID)
	}
	if creds.ClientSecret == "" {
		missing = append(missing, keyClientSecret)
	}
	if len(missing) > 0 {
		return nil, apperror.NewCredentialError(
			fmt.Sprintf("Missing credentials in %s: %s", r.path, strings.Join(missing, ", ")), nil)
	}
	return creds, nil
}

func (r *envCredentialRepository) Save(_ context.Context, creds *entity.Credentials) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := os.ReadFile(r.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperror.NewCredentialError("Cannot read credential file "+r.path, err)
	}

	updated := rewriteEnv(existing, map[string]string{
		r.accessKey:  creds.AccessToken,
		r.refreshKey: creds.RefreshToken,
	}, []string{r.accessKey, r.refreshKey})

	if err := fileutil.WriteFileAtomic(r.path, updated); err != nil {
		return apperror.NewCredentialError("Cannot write credential file "+r.path, err)
	}
	return nil
}

func firstOf(values map[string]string, keys []string) (string, string) {
	for _, k := range keys {
		if v := values[k]; v != "" {
			return v, k
		}
	}
	return "", keys[0]
}

// rewriteEnv replaces KEY=... lines for the given keys, appending any key
// that was not present. Other lines, comments, ordering and an export
// prefix are kept.
func rewriteEnv(content []byte, values map[string]string, order []string) []byte {
	var out bytes.Buffer
	seen := make(map[string]bool, len(values))

	lines := bytes.Split(content, []byte("\n"))
	if n := len(lines); n > 0 && len(lines[n-1]) == 0 {
		lines = lines[:n-1]
	}
	for _, raw := range lines {
		line := string(raw)
		key, export := envKey(line)
		if v, ok := values[key]; ok {
			if export {
				out.WriteString("export ")
			}
			out.WriteString(key + "=" + v)
			if strings.HasSuffix(line, "\r") {
				out.WriteString("\r")
			}
			out.WriteString("\n")
			seen[key] = true
			continue
		}
		out.WriteString(line + "\n")
	}
	for _, k := range order {
		if !seen[k] {
			out.WriteString(k + "=" + values[k] + "\n")
			seen[k] = true
		}
	}
	return out.Bytes()
}

// envKey returns the key of a KEY=value line and whether it was exported.
func envKey(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	rest, export := strings.CutPrefix(trimmed, "export ")
	key, _, ok := strings.Cut(rest, "=")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(key), export
}
