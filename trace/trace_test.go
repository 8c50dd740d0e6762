package trace_test

import (
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bharathi2203/418-Directory-Based-Cache-Coherence/message"
	"github.com/bharathi2203/418-Directory-Based-Cache-Coherence/trace"
)

func TestTrace(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Trace Suite")
}

var _ = Describe("Read", func() {
	It("parses read and write tuples, hex or bare", func() {
		input := "0 R 0x100\n1 W 200\n"
		events, err := trace.Read(strings.NewReader(input), "t")
		Expect(err).ToNot(HaveOccurred())
		Expect(events).To(HaveLen(2))

		Expect(events[0]).To(Equal(trace.Event{ProcessorID: 0, Kind: message.ReadRequest, Address: 0x100}))
		Expect(events[1]).To(Equal(trace.Event{ProcessorID: 1, Kind: message.WriteRequest, Address: 0x200}))
	})

	It("skips blank lines and comments", func() {
		input := "\n# a comment\n0 R 0x1\n   \n"
		events, err := trace.Read(strings.NewReader(input), "t")
		Expect(err).ToNot(HaveOccurred())
		Expect(events).To(HaveLen(1))
	})

	It("skips malformed lines without aborting the rest of the file", func() {
		input := "not a line\n0 R 0x1\n0 X 0x2\n0 R\n1 R 0x3\n"
		events, err := trace.Read(strings.NewReader(input), "t")
		Expect(err).ToNot(HaveOccurred())
		Expect(events).To(HaveLen(2))
		Expect(events[0].Address).To(Equal(uint64(0x1)))
		Expect(events[1].Address).To(Equal(uint64(0x3)))
	})
})
