package commands

const (
	_etc = "/usr/local/etc/bigfoot"
	_var = "/usr/local/var/bigfoot"

	DEFAULT_WORKDIR = _var
	DEFAULT_CONFIG  = _etc + "/bigfoot.yaml"

	BROWSER = "xdg-open"
)
