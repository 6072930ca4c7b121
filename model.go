package configuration

// ConfigurationProperty carries one registry entry between
// subsystems.  Type is the Kind name of the value.
type ConfigurationProperty struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
	Type  string `json:"type" yaml:"type"`
}

// ConfigurationModel is the same data under the names used by
// persistence layers.
type ConfigurationModel struct {
	ConfigurationKey   string `json:"configurationKey" yaml:"configurationKey"`
	ConfigurationValue string `json:"configurationValue" yaml:"configurationValue"`
	ConfigurationType  string `json:"configurationType" yaml:"configurationType"`
}

func NewConfigurationModel(key string) ConfigurationModel {
	return ConfigurationModel{ConfigurationKey: key}
}

func (p ConfigurationProperty) Model() ConfigurationModel {
	return ConfigurationModel{
		ConfigurationKey:   p.Key,
		ConfigurationValue: p.Value,
		ConfigurationType:  p.Type,
	}
}
