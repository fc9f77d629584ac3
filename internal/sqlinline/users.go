package sqlinline

const QSelectUserByID = `--sql 757d466a-d0cd-42f1-a604-20222d131128
select
    id,
    email,
    role,
    plan,
    banned,
    email_verified,
    last_seen_at,
    created_at
from users
where id = $1
limit 1;
`

const QSelectUserByEmail = `--sql b8449b0a-ce1f-4513-9c5a-9f54055f1324
select
    id,
    email,
    role,
    plan,
    banned,
    email_verified,
    last_seen_at,
    created_at
from users
where lower(email) = lower($1)
limit 1;
`

const QUpdateUserLastSeen = `--sql 4567dc1b-35eb-4f63-84b6-023096a823b5
update users
set last_seen_at = $2
where id = $1
  and (last_seen_at is null or last_seen_at < $2);
`

const QUpdateUserAccount = `--sql 22bac8cf-6bdb-4066-a8cd-4680968922ae
update users
set plan = coalesce($2, plan),
    banned = coalesce($3, banned),
    email_verified = coalesce($4, email_verified),
    updated_at = now()
where id = $1
returning id, email, role, plan, banned, email_verified, last_seen_at, created_at;
`
