package mqtt

// TopicSeparator separates the levels of an MQTT topic.
const TopicSeparator = "/"

// Prefixed concatenates prefix and topic verbatim. No separator is inserted or trimmed: a base topic
// of "garage/" and a relative topic of "door/state" produce "garage/door/state". An empty topic stays empty so unset
// fields remain unset.
func Prefixed(prefix, topic string) string {
	if topic == "" {
		return ""
	}

	return prefix + topic
}
