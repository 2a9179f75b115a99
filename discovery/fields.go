package discovery

// Constants for fields shared by every component.
const (
	FieldName     = "name"
	FieldUniqueID = "uniq_id"
	FieldObjectID = "obj_id"

	FieldDeviceClass    = "dev_cla"
	FieldIcon           = "ic"
	FieldEntityCategory = "ent_cat"

	FieldStateTopic    = "stat_t"
	FieldCommandTopic  = "cmd_t"
	FieldValueTemplate = "val_tpl"

	FieldPayloadOn  = "pl_on"
	FieldPayloadOff = "pl_off"

	FieldDevice = "dev"
	FieldOrigin = "o"
)

// Constants for availability. A component either uses a single FieldAvailabilityTopic or a FieldAvailability list of
// FieldTopic entries combined according to FieldAvailabilityMode.
const (
	FieldAvailabilityTopic   = "avty_t"
	FieldAvailabilityMode    = "avty_mode"
	FieldAvailability        = "availability"
	FieldTopic               = "topic"
	FieldPayloadAvailable    = "pl_avail"
	FieldPayloadNotAvailable = "pl_not_avail"

	// AvailabilityModeAll requires every entry of the availability list to report available.
	AvailabilityModeAll = "all"
)

// Constants for the device block.
const (
	FieldIdentifiers      = "ids"
	FieldManufacturer     = "mf"
	FieldModel            = "mdl"
	FieldSoftwareVersion  = "sw"
	FieldConfigurationURL = "cu"
)

// Sensor Constants
const (
	FieldStateClass        = "stat_cla"
	FieldUnitOfMeasurement = "unit_of_meas"
	FieldExpireAfter       = "exp_aft"
)

// Constants for the text platform
const (
	FieldPattern = "ptrn"
)

// Constants for the number platform
const (
	FieldMode = "mode"
	FieldMin  = "min"
	FieldMax  = "max"
	FieldStep = "step"
)

// Constants for the select platform
const (
	FieldOptions = "options"
)

// Constants for the update platform
const (
	FieldReleaseURL         = "rel_u"
	FieldLatestVersionTopic = "l_ver_t"

	// DeviceClassFirmware is the device class used for update components that do not configure one.
	DeviceClassFirmware = "firmware"
)
