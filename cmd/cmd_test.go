package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/frahmantamala/hiring-gateway/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cmd Suite")
}

var _ = Describe("loadConfig", func() {
	setenv := func(key, value string) {
		prev, had := os.LookupEnv(key)
		Expect(os.Setenv(key, value)).To(Succeed())
		DeferCleanup(func() {
			if had {
				_ = os.Setenv(key, prev)
			} else {
				_ = os.Unsetenv(key)
			}
		})
	}

	BeforeEach(func() {
		for _, names := range envAliases {
			for _, name := range names {
				setenv(name, "")
				Expect(os.Unsetenv(name)).To(Succeed())
			}
		}
		setenv("ENV_SUPABASE_URL", "")
		Expect(os.Unsetenv("ENV_SUPABASE_URL")).To(Succeed())
	})

	It("should read the platform variable names", func() {
		setenv("NEXT_PUBLIC_SUPABASE_URL", "https://abc.supabase.co")
		setenv("SUPABASE_ANON_KEY", "anon")
		setenv("SUPABASE_SERVICE_ROLE_KEY", "service")
		setenv("PORT", "9090")
		setenv("ENVIRONMENT", "staging")

		cfg, err := loadConfig(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Supabase.URL).To(Equal("https://abc.supabase.co"))
		Expect(cfg.Supabase.AnonKey).To(Equal("anon"))
		Expect(cfg.Supabase.ServiceRoleKey).To(Equal("service"))
		Expect(cfg.Server.Port).To(Equal(9090))
		Expect(cfg.Environment).To(Equal("staging"))

		Expect(cfg.Storage.Driver).To(Equal(internal.StorageDriverSupabase))
		Expect(cfg.Storage.ResumeBucket).To(Equal("resumes"))
		Expect(cfg.Captcha.Store).To(Equal(internal.CaptchaStoreMemory))
		Expect(cfg.Captcha.TTL).To(Equal(5 * time.Minute))
		Expect(cfg.Captcha.MaxAttempts).To(Equal(5))
		Expect(cfg.Pagination.DefaultLimit).To(Equal(20))
	})

	It("should prefer the ENV_ prefixed name", func() {
		setenv("NEXT_PUBLIC_SUPABASE_URL", "https://public.supabase.co")
		setenv("ENV_SUPABASE_URL", "https://override.supabase.co")
		setenv("SUPABASE_ANON_KEY", "anon")
		setenv("SUPABASE_SERVICE_ROLE_KEY", "service")

		cfg, err := loadConfig(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Supabase.URL).To(Equal("https://override.supabase.co"))
	})

	It("should layer the environment over config.yml", func() {
		dir := GinkgoT().TempDir()
		yml := []byte(`
supabase:
  url: https://file.supabase.co
  anon_key: file-anon
  service_role_key: file-service
captcha:
  ttl: 2m
storage:
  signed_url_ttl: 30m
`)
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), yml, 0o600)).To(Succeed())
		setenv("SUPABASE_SERVICE_ROLE_KEY", "env-service")

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Supabase.URL).To(Equal("https://file.supabase.co"))
		Expect(cfg.Supabase.ServiceRoleKey).To(Equal("env-service"))
		Expect(cfg.Captcha.TTL).To(Equal(2 * time.Minute))
		Expect(cfg.Storage.SignedURLTTL).To(Equal(30 * time.Minute))
	})

	It("should fail validation without the service role key", func() {
		setenv("NEXT_PUBLIC_SUPABASE_URL", "https://abc.supabase.co")
		setenv("SUPABASE_ANON_KEY", "anon")

		_, err := loadConfig(GinkgoT().TempDir())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("service_role_key"))
	})

	It("should reject a zero default page size", func() {
		setenv("NEXT_PUBLIC_SUPABASE_URL", "https://abc.supabase.co")
		setenv("SUPABASE_ANON_KEY", "anon")
		setenv("SUPABASE_SERVICE_ROLE_KEY", "service")
		setenv("ENV_PAGINATION_DEFAULT_LIMIT", "0")

		_, err := loadConfig(GinkgoT().TempDir())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("pagination config: default_limit must be positive"))
	})
})
