package writers

type writer interface {
	Write(contents []byte) error
}

var (
	_ writer = FileWriter{}
	_ writer = ConsoleWriter{}
)
