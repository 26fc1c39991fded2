package unified_test

import (
	"fmt"

	"github.com/shandysiswandi/gounified/unified"
)

func ExampleParse() {
	id, err := unified.Parse("AGQ8BJPM1IA7V")
	if err != nil {
		panic(err)
	}

	key, _ := id.TierKey(unified.TierStandard)
	fmt.Println(id)
	fmt.Println(key)
	// Output:
	// AGQ8BJPM1IA7V
	// AG
}

func ExampleFromText() {
	id, _ := unified.FromText("a")
	fmt.Printf("%s %x\n", id, id.Uint64())
	// Output: AUOUS9I303R4C af63dc4c8601ec8c
}

func ExampleID_PartitionNumberString() {
	id := unified.FromRaw(1 << 63)
	n, _ := id.PartitionNumber(16)
	s, _ := id.PartitionNumberString(16)
	fmt.Println(n, s)
	// Output: 8 08
}
