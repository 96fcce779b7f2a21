package placement_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/coralstore/diskctl/catalog"
	"github.com/coralstore/diskctl/group"
	"github.com/coralstore/diskctl/placement"
	"github.com/coralstore/diskctl/store"
)

func buildDisks(n, v, sliceCount int) []*store.Disk {
	disks := make([]*store.Disk, n+1)
	for i := 1; i <= n; i++ {
		disks[i] = store.NewDisk(i, v, sliceCount, 8)
	}
	return disks
}

var _ = Describe("Engine.PlaceBatch", func() {
	var (
		disks []*store.Disk
		plan  *group.Plan
		table *catalog.Table
		eng   *placement.Engine
	)

	freqAt := func(tag int) int { return tag }

	BeforeEach(func() {
		disks = buildDisks(4, 20, 2)
		plan = group.Build(4, 2, group.Seed("placement-test"))
		table = catalog.NewTable()
		eng = placement.NewEngine(disks, plan, table)
	})

	It("places a request across three distinct disks", func() {
		reqs := []placement.Request{{ObjectID: 1, Size: 2, Tag: 1}}
		results, err := eng.PlaceBatch(reqs, freqAt)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(1))

		seen := map[int]bool{}
		for _, rep := range results[0].Replicas {
			Expect(seen[rep.Disk]).To(BeFalse(), "replica disks must be distinct")
			seen[rep.Disk] = true
			Expect(rep.Positions).To(HaveLen(3)) // Positions[0] unused + 2 blocks
		}
	})

	It("registers the object in the table", func() {
		reqs := []placement.Request{{ObjectID: 42, Size: 1, Tag: 3}}
		_, err := eng.PlaceBatch(reqs, freqAt)
		Expect(err).NotTo(HaveOccurred())
		Expect(table.Get(42)).NotTo(BeNil())
		Expect(table.Get(42).Size).To(Equal(1))
	})

	It("commits earlier requests in a batch before placing later ones", func() {
		reqs := []placement.Request{
			{ObjectID: 1, Size: 1, Tag: 1},
			{ObjectID: 2, Size: 1, Tag: 1},
		}
		results, err := eng.PlaceBatch(reqs, freqAt)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(2))
		Expect(table.Get(1)).NotTo(BeNil())
		Expect(table.Get(2)).NotTo(BeNil())
	})

	It("fails with a capacity error once disks run out of room", func() {
		var reqs []placement.Request
		for i := 1; i <= 100; i++ {
			reqs = append(reqs, placement.Request{ObjectID: i, Size: 3, Tag: 1})
		}
		_, err := eng.PlaceBatch(reqs, freqAt)
		Expect(err).To(HaveOccurred())
	})
})
