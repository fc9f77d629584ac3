package sqlinline

const QSelectGlobalSettings = `--sql 29d0de30-ee1d-4d2e-ac78-d78d21a55fbb
select require_email_verification
from global_settings
where id = 1;
`
