package rcu

import "github.com/rs/zerolog/log"

// fatal reports a platform invariant violation and terminates the process.
// There is no recoverable path from a broken grace-period engine: any
// caller blocked in Synchronize or about to dereference a pointer that
// should have been reclaimed would otherwise observe freed memory.
func fatal(msg string, kv ...interface{}) {
	ev := log.Fatal()
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		ev = ev.Interface(key, kv[i+1])
	}
	ev.Msg(msg) // zerolog's Fatal level calls os.Exit(1) after logging.
}
