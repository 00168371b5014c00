package db

type Closer interface {
	Close() error
}

type Connection struct {
	DSN string
}

func (c *Connection) Close() error {
	return nil
}
