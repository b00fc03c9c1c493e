package buffer

// Default 是进程级的共享表，初始为空。
var Default = NewRegistry()

// Publish 在 Default 上登记缓冲区。
func Publish(b []byte) { Default.Publish(b) }

// Retain 在 Default 上增加引用。
func Retain(b []byte) { Default.Retain(b) }

// Release 在 Default 上释放引用。
func Release(b []byte) error { return Default.Release(b) }
