package dotdir_test

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/partdeck/partdeck/pkg/dotdir"
)

var _ = Describe("dotdir.Manager identity", func() {
	var tmpDir string
	var m *dotdir.Manager

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "dotdir-test-*")
		Expect(err).NotTo(HaveOccurred())
		m = dotdir.NewManager()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("LoadIdentity", func() {
		It("returns nil when no identity file exists", func() {
			identity, err := m.LoadIdentity(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(identity).To(BeNil())
		})

		It("loads a stored identity", func() {
			data := `{"user_id":"9be0a1de-5a38-4a9e-b5d2-96cf4c62b66f"}`
			err := os.WriteFile(filepath.Join(tmpDir, "identity.json"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			identity, err := m.LoadIdentity(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(identity).NotTo(BeNil())
			Expect(identity.UserID).To(Equal("9be0a1de-5a38-4a9e-b5d2-96cf4c62b66f"))
		})

		It("returns error for invalid JSON", func() {
			err := os.WriteFile(filepath.Join(tmpDir, "identity.json"), []byte("not json"), 0o600)
			Expect(err).NotTo(HaveOccurred())

			identity, err := m.LoadIdentity(tmpDir)
			Expect(err).To(HaveOccurred())
			Expect(identity).To(BeNil())
		})
	})

	Describe("SaveIdentity", func() {
		It("persists the identity to disk", func() {
			identity := &dotdir.Identity{UserID: uuid.NewString()}

			err := m.SaveIdentity(identity, tmpDir)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := m.LoadIdentity(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(identity))
		})

		It("returns error for nil identity", func() {
			err := m.SaveIdentity(nil, tmpDir)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("EnsureIdentity", func() {
		It("mints a new identity on first use", func() {
			identity, err := m.EnsureIdentity(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(identity).NotTo(BeNil())

			parsed, err := uuid.Parse(identity.UserID)
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed.Version()).To(Equal(uuid.Version(4)))

			_, err = os.Stat(filepath.Join(tmpDir, "identity.json"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns the same identity on later calls", func() {
			first, err := m.EnsureIdentity(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			second, err := m.EnsureIdentity(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.UserID).To(Equal(first.UserID))
		})
	})
})
