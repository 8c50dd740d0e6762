package network_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bharathi2203/418-Directory-Based-Cache-Coherence/coherence/cache"
	"github.com/bharathi2203/418-Directory-Based-Cache-Coherence/coherence/directory"
	"github.com/bharathi2203/418-Directory-Based-Cache-Coherence/coherence/network"
	"github.com/bharathi2203/418-Directory-Based-Cache-Coherence/message"
)

func TestNetwork(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Network Suite")
}

// small builds a 4-node interconnect in which every address used in these
// specs maps to directory index 0, for readable assertions. All of them are
// homed at node 0 except the second address of the home-span spec, which is
// homed at node 1.
func small() *network.Interconnect {
	return network.New(network.Config{
		NumProcessors: 4,
		NumLines:      256,
		Cache:         cache.Config{S: 1, E: 16, B: 16},
	})
}

var _ = Describe("Interconnect", func() {
	var ic *network.Interconnect

	BeforeEach(func() {
		ic = small()
	})

	It("serves a local read at its own home node directly", func() {
		ic.Step(message.ReadRequest, 0, 0x0)

		entry := ic.Nodes()[0].Directory.Entry(0)
		Expect(entry.State).To(Equal(directory.Shared))
		Expect(entry.Sharers.Contains(0)).To(BeTrue())

		stats := ic.Nodes()[0].Cache.Stats()
		Expect(stats.Misses).To(Equal(uint64(1)))
		Expect(stats.Hits).To(Equal(uint64(0)))
	})

	It("hits on a second read of the same line from the same node", func() {
		ic.Step(message.ReadRequest, 0, 0x0)
		ic.Step(message.ReadRequest, 0, 0x0)

		stats := ic.Nodes()[0].Cache.Stats()
		Expect(stats.Misses).To(Equal(uint64(1)))
		Expect(stats.Hits).To(Equal(uint64(1)))
	})

	It("adds a remote reader to the home directory's sharer set", func() {
		ic.Step(message.ReadRequest, 0, 0x0)
		ic.Step(message.ReadRequest, 1, 0x0)

		entry := ic.Nodes()[0].Directory.Entry(0)
		Expect(entry.State).To(Equal(directory.Shared))
		Expect(entry.Sharers.Members()).To(Equal([]int{0, 1}))

		Expect(ic.Nodes()[1].Cache.Stats().Misses).To(Equal(uint64(1)))
	})

	It("grants exclusive-modified ownership on a write and invalidates the prior sharer", func() {
		ic.Step(message.WriteRequest, 0, 0x0)
		ic.Step(message.WriteRequest, 1, 0x0)

		entry := ic.Nodes()[0].Directory.Entry(0)
		Expect(entry.State).To(Equal(directory.ExclusiveModified))
		Expect(entry.Owner).To(Equal(1))
		Expect(entry.Sharers.Members()).To(Equal([]int{1}))

		oldOwnerLine, ok := ic.Nodes()[0].Cache.Lookup(0x0)
		Expect(ok).To(BeTrue())
		Expect(oldOwnerLine.State).To(Equal(cache.Invalid))

		newOwnerLine, ok := ic.Nodes()[1].Cache.Lookup(0x0)
		Expect(ok).To(BeTrue())
		Expect(newOwnerLine.State).To(Equal(cache.Modified))

		Expect(ic.Stats().Invalidations).To(BeNumerically(">=", 1))
	})

	It("downgrades a remote modified owner to SHARED when another node reads", func() {
		ic.Step(message.WriteRequest, 0, 0x0)
		ic.Step(message.ReadRequest, 1, 0x0)

		entry := ic.Nodes()[0].Directory.Entry(0)
		Expect(entry.State).To(Equal(directory.Shared))
		Expect(entry.Sharers.Members()).To(Equal([]int{0, 1}))

		ownerLine, ok := ic.Nodes()[0].Cache.Lookup(0x0)
		Expect(ok).To(BeTrue())
		Expect(ownerLine.State).To(Equal(cache.Shared))

		readerLine, ok := ic.Nodes()[1].Cache.Lookup(0x0)
		Expect(ok).To(BeTrue())
		Expect(readerLine.State).To(Equal(cache.Shared))

		Expect(ic.Stats().FetchRequests).To(BeNumerically(">=", 1))
	})

	It("never leaves a MODIFIED line in one cache while another cache holds a non-INVALID line for the same address", func() {
		ic.Step(message.WriteRequest, 0, 0x0)
		ic.Step(message.WriteRequest, 1, 0x0)
		ic.Step(message.WriteRequest, 2, 0x0)

		modifiedCount := 0
		nonInvalidCount := 0
		for _, n := range ic.Nodes() {
			line, ok := n.Cache.Lookup(0x0)
			if ok && line.State == cache.Modified {
				modifiedCount++
			}
			if ok && line.State != cache.Invalid {
				nonInvalidCount++
			}
		}
		Expect(modifiedCount).To(Equal(1))
		Expect(nonInvalidCount).To(Equal(1))
	})

	It("routes addresses in different home spans to different directories", func() {
		span := uint64(256) * (1 << 16)
		ic.Step(message.ReadRequest, 0, 0)
		ic.Step(message.ReadRequest, 0, span)

		Expect(ic.Nodes()[0].Directory.Entry(0).State).To(Equal(directory.Shared))
		Expect(ic.Nodes()[1].Directory.Entry(0).State).To(Equal(directory.Shared))
	})
})
