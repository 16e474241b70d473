package console_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bodega-ag/inventory-gateway/internal/console"
	"github.com/bodega-ag/inventory-gateway/internal/user"
)

var _ = Describe("FileStore", func() {
	var (
		path  string
		store *console.FileStore
	)

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "bodega", "session.json")
		store = console.NewFileStore(path)
	})

	It("defaults to the runtime dir", func() {
		runtime := GinkgoT().TempDir()
		GinkgoT().Setenv("XDG_RUNTIME_DIR", runtime)
		Expect(console.DefaultSessionPath()).To(Equal(filepath.Join(runtime, "bodega", "session.json")))
	})

	It("falls back to a per-user temp dir", func() {
		GinkgoT().Setenv("XDG_RUNTIME_DIR", "")
		p := console.DefaultSessionPath()
		Expect(strings.HasPrefix(p, os.TempDir())).To(BeTrue())
		Expect(filepath.Base(filepath.Dir(p))).To(HavePrefix("bodega-"))
	})

	It("loads an empty session when nothing was saved", func() {
		s, err := store.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Empty()).To(BeTrue())
	})

	It("persists the session for the owner only", func() {
		saved := console.Session{Token: "tok", Username: "ana", DisplayName: "Ana", AccessLevel: user.LevelTotal}
		Expect(store.Save(saved)).To(Succeed())

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))

		loaded, err := console.NewFileStore(path).Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(Equal(saved))
	})

	It("clears idempotently", func() {
		Expect(store.Save(console.Session{Token: "tok"})).To(Succeed())
		Expect(store.Clear()).To(Succeed())
		Expect(store.Clear()).To(Succeed())

		s, err := store.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Empty()).To(BeTrue())
	})

	It("reports a corrupt session file", func() {
		Expect(os.MkdirAll(filepath.Dir(path), 0o700)).To(Succeed())
		Expect(os.WriteFile(path, []byte("{not json"), 0o600)).To(Succeed())

		_, err := store.Load()
		Expect(err).To(MatchError(ContainSubstring("decode session")))
	})
})

var _ = Describe("PromptConfirmer", func() {
	DescribeTable("answers",
		func(input string, expected bool) {
			var out bytes.Buffer
			p := console.NewPromptConfirmer(strings.NewReader(input), &out, false)

			Expect(p.Confirm(console.WarningOwnLevel)).To(Equal(expected))
			Expect(out.String()).To(ContainSubstring("ADVERTENCIA: " + console.WarningOwnLevel))
		},
		Entry("s", "s\n", true),
		Entry("sí", "Sí\n", true),
		Entry("yes", "yes\n", true),
		Entry("no", "n\n", false),
		Entry("blank", "\n", false),
		Entry("closed input", "", false),
	)

	It("auto-confirms with assume yes", func() {
		var out bytes.Buffer
		p := console.NewPromptConfirmer(strings.NewReader(""), &out, true)

		Expect(p.Confirm(console.WarningOwnDeactivation)).To(BeTrue())
	})

	It("prints the login hint on sign out", func() {
		var out bytes.Buffer
		console.WriterNavigator{Out: &out}.Redirect(console.LoginPath)
		Expect(out.String()).To(ContainSubstring("bodega console login"))
	})
})
