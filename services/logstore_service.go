package services

// LogStore keeps per-machine diagnostic log files uploaded by devices.
type LogStore interface {
	// Save stores content as the machine's log file for the current day
	// and returns the file name.
	Save(machine string, content []byte) (string, error)
	Read(machine, filename string) ([]byte, error)
	// Latest returns the name and content of the machine's newest log file.
	Latest(machine string) (string, []byte, error)
	Machines() ([]string, error)
}
