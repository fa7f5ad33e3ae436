// Package verify checks the structural invariants of an allocator arena.
//
// The checks read raw arena bytes and never trust allocator state, so they
// catch bookkeeping that drifted away from what is actually in memory. They
// are used by the allocators' Verify methods and throughout the tests.
//
// Checks:
//   - Blocks: every header decodes, sizes are word aligned and at least one
//     word, and the headers tile the arena exactly with no gap or overhang.
//   - Chain: following next links from the first block visits every block
//     in address order (implicit and bump layouts).
//   - FreeList: the doubly linked free list has consistent back links, holds
//     only free blocks, has no cycles, and contains every free block.
//   - Top: the top block is the physically last one.
//
// All functions return *ValidationError on failure:
//
//	if err := verify.Blocks(a.Bytes()); err != nil {
//	    var verr *verify.ValidationError
//	    if errors.As(err, &verr) {
//	        fmt.Printf("%s at 0x%X\n", verr.Type, verr.Offset)
//	    }
//	}
package verify
