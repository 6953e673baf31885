package urcu_test

import (
	"fmt"
	"unsafe"

	"github.com/kvic-z/urcu"
)

// Example demonstrates basic table usage: a reader registers once, then
// adds and looks up a key.
func Example() {
	tbl, err := urcu.NewTable(16)
	if err != nil {
		fmt.Println("new table failed:", err)
		return
	}

	r := tbl.Reader()
	defer r.Unregister()

	value := 42
	if err := tbl.Add(r, 1, unsafe.Pointer(&value)); err != nil {
		fmt.Println("add failed:", err)
		return
	}

	got, ok := tbl.Lookup(r, 1)
	if !ok {
		fmt.Println("lookup miss")
		return
	}
	fmt.Println(*(*int)(got))

	// Output:
	// 42
}
