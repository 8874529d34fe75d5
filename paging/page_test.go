package paging

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Frames", func() {
	It("should start empty", func() {
		f := NewFrames(3)

		Expect(f).To(HaveLen(3))
		Expect(f.FirstEmpty()).To(Equal(0))
		Expect(f.Resident()).To(BeEmpty())
		Expect(f.String()).To(Equal("[- - -]"))
	})

	It("should find pages and empty slots", func() {
		f := frames("a", "", "b")

		Expect(f.IndexOf("b")).To(Equal(2))
		Expect(f.IndexOf("c")).To(Equal(-1))
		Expect(f.Contains("a")).To(BeTrue())
		Expect(f.Contains(Empty)).To(BeFalse())
		Expect(f.FirstEmpty()).To(Equal(1))
		Expect(f.Resident()).To(Equal(pages("a", "b")))
	})

	It("should clone without sharing memory", func() {
		f := frames("a", "b")
		c := f.Clone()
		c[0] = "z"

		Expect(f[0]).To(Equal(Page("a")))
	})

	It("should encode empty slots as dashes", func() {
		b, err := json.Marshal(frames("a", ""))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(Equal(`["a","-"]`))

		var decoded Frames
		Expect(json.Unmarshal(b, &decoded)).To(Succeed())
		Expect(decoded).To(Equal(frames("a", "")))
	})
})
