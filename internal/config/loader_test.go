package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/nomic/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	t.Setenv("NOMIC_ORG", "rules-org")
	t.Setenv("NOMIC_REPO", "rules")
	t.Setenv("NOMIC_DENYLIST", "spambot, oldbot,")
	t.Setenv("NOMIC_REDIS_ADDR", "redis:6379")
	t.Setenv("NOMIC_LOG_LEVEL", "debug")

	Convey("Given environment configuration", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env values override defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Org, ShouldEqual, "rules-org")
			So(cfg.Repo, ShouldEqual, "rules")
			So(cfg.RedisAddr, ShouldEqual, "redis:6379")
			So(cfg.LogLevel, ShouldEqual, "debug")
		})

		Convey("And untouched fields keep their defaults", func() {
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.BusPrefix, ShouldEqual, "treslek")
			So(cfg.RequestTimeoutMS, ShouldEqual, 5000)
		})

		Convey("And the denylist splits into trimmed identities", func() {
			So(cfg.DenylistSet(), ShouldResemble, []string{"spambot", "oldbot"})
		})
	})
}

func TestLoadRequiresOrgAndRepo(t *testing.T) {
	t.Setenv("NOMIC_ORG", "")
	t.Setenv("NOMIC_REPO", "")

	Convey("Given no org or repo in the environment", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then loading fails as invalid", func() {
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
