package registry

// Command is one parsed user request. The set of variants is closed.
type Command interface {
	command()
}

type Help struct{}

type Watch struct {
	Status string
	URL    string
}

type Unwatch struct {
	URL string
}

type List struct{}

type Clear struct{}

func (Help) command()    {}
func (Watch) command()   {}
func (Unwatch) command() {}
func (List) command()    {}
func (Clear) command()   {}

// Description is one line of the help text.
type Description struct {
	Name  string
	Usage string
	Text  string
}

var Descriptions = []Description{
	{Name: "help", Text: "display this text."},
	{Name: "watch", Usage: "<up|down> <url>", Text: "Allow me to alert you when a website is down (or up!)."},
	{Name: "unwatch", Usage: "<url>", Text: "Stop watching a webpage."},
	{Name: "list", Text: "List all webpages that I'm watching for you."},
	{Name: "clear", Text: "Stop watching any webpages that you've asked me to watch for you."},
}
