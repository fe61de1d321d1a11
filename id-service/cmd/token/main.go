// Command token mints bearer tokens for the id-service issuance routes,
// signed with the configured auth secret.
//
//	token -subject billing -kinds order,invoice
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/weiawesome/prefixid/id-service/internal/config"
	"github.com/weiawesome/prefixid/pkg/jwt"
	pkglog "github.com/weiawesome/prefixid/pkg/log"
)

func main() {
	subject := flag.String("subject", "", "caller the token is issued to")
	kinds := flag.String("kinds", jwt.AllKinds, "comma separated prefixes the caller may issue")
	flag.Parse()

	logger := pkglog.L()
	if *subject == "" {
		logger.Fatal().Msg("-subject is required")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Auth.Secret == "" {
		logger.Fatal().Msg("auth.secret is not configured")
	}

	manager, err := jwt.NewManager(cfg.Auth.Secret, cfg.Auth.Issuer, time.Duration(cfg.Auth.TokenTTL)*time.Hour)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create jwt manager")
	}

	var granted []string
	for _, k := range strings.Split(*kinds, ",") {
		if k = strings.TrimSpace(k); k != "" {
			granted = append(granted, k)
		}
	}
	token, expiresAt, err := manager.GenerateToken(*subject, granted)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to sign token")
	}

	logger.Info().Str(pkglog.FieldSubject, *subject).Strs("kinds", granted).Time("expires_at", expiresAt).Msg("token issued")
	fmt.Fprintln(os.Stdout, token)
}
