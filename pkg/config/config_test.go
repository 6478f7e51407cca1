package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/veridocai/veridoc/pkg/config"
)

var _ = Describe("InitViper", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("returns defaults when no config file exists", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.FromViper(v)
		Expect(err).NotTo(HaveOccurred())

		defaults := config.NewDefaultConfig()
		Expect(cfg.API.Listen).To(Equal(defaults.API.Listen))
		Expect(cfg.VectorStore.Provider).To(Equal(defaults.VectorStore.Provider))
		Expect(cfg.Embedding.Model).To(Equal(defaults.Embedding.Model))
		Expect(cfg.Embedding.Dimensions).To(Equal(defaults.Embedding.Dimensions))
		Expect(cfg.Segmenter.ChunkSize).To(Equal(defaults.Segmenter.ChunkSize))
		Expect(cfg.Segmenter.ChunkOverlap).To(Equal(defaults.Segmenter.ChunkOverlap))
		Expect(cfg.Retrieval.TopK).To(Equal(defaults.Retrieval.TopK))
		Expect(cfg.Events.Provider).To(Equal(defaults.Events.Provider))
	})

	It("reads values from config.toml", func() {
		data := `version = 0

[vector_store]
provider = "sqlitevec"
sqlite_path = "test.db"

[embedding]
provider = "ollama"
model = "nomic-embed-text"
dimensions = 768

[retrieval]
top_k = 8
`
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.FromViper(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.VectorStore.Provider).To(Equal("sqlitevec"))
		Expect(cfg.VectorStore.SQLitePath).To(Equal("test.db"))
		Expect(cfg.Embedding.Provider).To(Equal("ollama"))
		Expect(cfg.Embedding.Model).To(Equal("nomic-embed-text"))
		Expect(cfg.Embedding.Dimensions).To(Equal(uint(768)))
		Expect(cfg.Retrieval.TopK).To(Equal(8))

		// Unset sections keep their defaults.
		Expect(cfg.API.Listen).To(Equal(config.NewDefaultConfig().API.Listen))
	})

	It("rejects an unsupported config version", func() {
		data := "version = 99\n"
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		_, err = config.FromViper(v)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unsupported config version"))
	})

	It("lets VERIDOC_ environment variables override the file", func() {
		data := "[api]\nlisten = \":9999\"\n"
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())

		os.Setenv("VERIDOC_API_LISTEN", ":7777")
		defer os.Unsetenv("VERIDOC_API_LISTEN")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.FromViper(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.API.Listen).To(Equal(":7777"))
	})
})

var _ = Describe("BindRegisteredFlags", func() {
	It("binds a registered flag so it overrides the default", func() {
		fs := config.DefaultFlagSet()
		cmd := &cobra.Command{Use: "test"}

		var listen string
		config.AddStringFlag(cmd, fs, config.FlagAPIListen, &listen)
		Expect(cmd.Flags().Set("listen", ":5555")).To(Succeed())

		v, err := config.InitViper(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		config.BindRegisteredFlags(v, cmd, fs, []string{config.FlagAPIListen})

		cfg, err := config.FromViper(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.API.Listen).To(Equal(":5555"))
	})

	It("ignores unknown registry keys", func() {
		fs := config.DefaultFlagSet()
		cmd := &cobra.Command{Use: "test"}

		v, err := config.InitViper(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		config.BindRegisteredFlags(v, cmd, fs, []string{"no-such-flag"})

		cfg, err := config.FromViper(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.API.Listen).To(Equal(config.NewDefaultConfig().API.Listen))
	})
})
