package entity

// WalletCredentials identify a merchant channel at the one-time-key wallet provider.
// Resolved fresh from the machine-setting service for every run, never cached.
type WalletCredentials struct {
	ChannelId     string
	ChannelSecret string
}

// GatewayCredentials identify a store terminal at the signed trade gateway.
type GatewayCredentials struct {
	StoreId string
	TermId  string
	HashKey string
}

// MachineSetting is the machine-setting service response.
// The first element of Data carries the credentials for the requested machine.
type MachineSetting struct {
	Data []SettingItem `json:"data"`
}

// SettingItem holds the credential fields of one machine.
// Field names follow the machine-setting service wire format:
// t050v41/42/43 are the gateway StoreID, TermID and hash key columns.
type SettingItem struct {
	LineChannelId     string `json:"LINE_ChannelId"`
	LineChannelSecret string `json:"LINE_ChannelSecret"`
	StoreId           string `json:"t050v41"`
	TermId            string `json:"t050v42"`
	HashKey           string `json:"t050v43"`
}
