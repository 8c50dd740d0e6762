package report_test

import (
	"bytes"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bharathi2203/418-Directory-Based-Cache-Coherence/coherence/network"
	"github.com/bharathi2203/418-Directory-Based-Cache-Coherence/message"
	"github.com/bharathi2203/418-Directory-Based-Cache-Coherence/report"
)

func TestReport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Suite")
}

var _ = Describe("Print", func() {
	It("includes every node's counters and the global traffic block", func() {
		ic := network.New(network.DefaultConfig())
		ic.Step(message.ReadRequest, 0, 0x0)
		ic.Step(message.WriteRequest, 1, 0x0)

		var buf bytes.Buffer
		report.Print(&buf, ic)

		out := buf.String()
		Expect(out).To(ContainSubstring("Node 0 cache"))
		Expect(out).To(ContainSubstring("Node 1 cache"))
		Expect(out).To(ContainSubstring("Global traffic"))
		Expect(out).To(ContainSubstring("mem_reads="))
	})

	It("never writes ANSI escapes to a non-terminal writer", func() {
		ic := network.New(network.DefaultConfig())
		ic.Step(message.ReadRequest, 0, 0x0)

		var buf bytes.Buffer
		report.Print(&buf, ic)

		Expect(strings.Contains(buf.String(), "\x1b[")).To(BeFalse())
	})
})

var _ = Describe("WriteCSV", func() {
	It("emits one row per node with a header", func() {
		ic := network.New(network.DefaultConfig())
		ic.Step(message.ReadRequest, 0, 0x0)

		var buf bytes.Buffer
		err := report.WriteCSV(&buf, ic)
		Expect(err).ToNot(HaveOccurred())

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		Expect(lines[0]).To(Equal("node,hits,misses,evictions,dirty_evictions"))
		Expect(lines).To(HaveLen(1 + len(ic.Nodes())))
	})
})
