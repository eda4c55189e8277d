package client

import (
	"time"

	"github.com/kod2ulz/gostart/utils"
)

type IadminConfig struct {
	InstallationID string
	Password       string
	TestMode       bool
	ProductionUrl  string
	TestUrl        string
	Timeout        time.Duration
	ArchiveBucket  string
	ArchiveFolder  string
}

func NewIadminClientConfig(prefix ...string) *IadminConfig {
	env := utils.Env.Helper(prefix...).OrDefault("IADMIN_CLIENT")
	return &IadminConfig{
		InstallationID: env.MustGet("INSTALLATION_ID").String(),
		Password:       env.MustGet("PASSWORD").String(),
		TestMode:       env.Get("TEST_MODE", "false").Bool(),
		ProductionUrl:  env.Get("PRODUCTION_URL", DefaultProductionUrl).String(),
		TestUrl:        env.Get("TEST_URL", DefaultTestUrl).String(),
		Timeout:        env.Get("TIMEOUT", "30s").Duration(),
		ArchiveBucket:  env.Get("ARCHIVE_BUCKET", "iadmin").String(),
		ArchiveFolder:  env.Get("ARCHIVE_FOLDER", "exchanges").String(),
	}
}
